// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// TokenTTL is the validity window for all three role-scoped tokens.
const TokenTTL = 8 * time.Hour

// MessageMutationWindow bounds how long a sender may edit or delete a
// message after it was created.
const MessageMutationWindow = 5 * time.Minute

// CancellationNotice is the minimum lead time before the slot start for a
// seeker-side cancellation.
const CancellationNotice = 24 * time.Hour

// ReminderLeadTime is how long before the slot start a consultation reminder
// fires.
const ReminderLeadTime = time.Hour
