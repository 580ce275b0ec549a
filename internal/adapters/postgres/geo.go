package postgres_adapter

import (
	"find-a-house/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// 7 символов - ячейка около 150x150 м
const geohashPrecision = 7

// locationCell вычисляет geohash-ячейку для точки. Без координат - NULL.
func locationCell(p *domain.GeoPoint) *string {
	if p == nil || !p.Valid() {
		return nil
	}
	cell := geohash.EncodeWithPrecision(p.Lat, p.Lon, geohashPrecision)
	return &cell
}

func locationCoords(p *domain.GeoPoint) (lat, lon *float64) {
	if p == nil || !p.Valid() {
		return nil, nil
	}
	return &p.Lat, &p.Lon
}

func pointFromColumns(lat, lon *float64) *domain.GeoPoint {
	if lat == nil || lon == nil {
		return nil
	}
	p := domain.GeoPoint{Lat: *lat, Lon: *lon}
	if !p.Valid() {
		return nil
	}
	return &p
}
