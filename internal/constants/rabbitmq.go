package constants

// Обменник и ключ маршрутизации для уведомлений о подходящих объявлениях
const (
	ExchangeNotifications      = "rental_notifications"
	ExchangeNotificationsType  = "topic"
	RoutingKeyListingMatched   = "listing.matched"
	EventTypeListingMatched    = "ListingMatchedEvent"
	EventVersionListingMatched = "1.0.0"
)
