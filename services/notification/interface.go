package notification

import "context"

// Service defines methods for sending push notifications to the two sides of
// a booking. Dispatch is best-effort: callers log failures and move on, and
// no lifecycle outcome ever depends on a push being delivered.
type Service interface {
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendPartnerPush(ctx context.Context, partnerID, title, body string, data map[string]string) error
}
