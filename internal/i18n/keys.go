// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyServerError = "common.server_error"
	KeyNotFound    = "common.not_found"
	KeyForbidden   = "common.forbidden"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthProfileUpdated     = "auth.profile_updated"
	KeyAdminAccessDenied      = "auth.admin_access_denied"

	// Products
	KeyProductCreated       = "product.created"
	KeyProductUpdated       = "product.updated"
	KeyProductDeleted       = "product.deleted"
	KeyProductNotFound      = "product.not_found"
	KeyProductNotFoundID    = "product.not_found_id"
	KeyProductInactive      = "product.inactive"
	KeyProductInsufficient  = "product.insufficient_stock"
	KeyProductViewRecorded  = "product.view_recorded"
	KeyProductImageUploaded = "product.image_uploaded"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderEmpty             = "order.empty"
	KeyOrderCancelled         = "order.cancelled"
	KeyOrderCancelBadStatus   = "order.cancel_bad_status"
	KeyOrderStatusUpdated     = "order.status_updated"
	KeyOrderInvalidTransition = "order.invalid_transition"
	KeyOrderViewForbidden     = "order.view_forbidden"
	KeyOrderCancelForbidden   = "order.cancel_forbidden"

	// Favorites
	KeyFavoriteAdded    = "favorite.added"
	KeyFavoriteRemoved  = "favorite.removed"
	KeyFavoriteExists   = "favorite.exists"
	KeyFavoriteNotFound = "favorite.not_found"

	// View history
	KeyHistoryRecorded = "history.recorded"
	KeyHistoryRemoved  = "history.removed"
	KeyHistoryCleared  = "history.cleared"
	KeyHistoryNotFound = "history.not_found"

	// Comments
	KeyCommentAdded     = "comment.added"
	KeyCommentUpdated   = "comment.updated"
	KeyCommentDeleted   = "comment.deleted"
	KeyCommentNotFound  = "comment.not_found"
	KeyCommentForbidden = "comment.forbidden"
	KeyCommentLiked     = "comment.liked"
	KeyCommentUnliked   = "comment.unliked"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
