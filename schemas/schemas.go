// Package schemas хранит JSON-схемы файлов конфигурации и событий
package schemas

import "embed"

//go:embed profiles/*.json events/*/*.json
var FS embed.FS

// Пути к схемам внутри FS
const (
	ProfileSchemaV1       = "profiles/v1.json"
	ListingMatchedEventV1 = "events/listing-matched/v1.json"
)
