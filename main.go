// Project Structure Overview
/*
techshop-backend/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── common.go
│   │   ├── user.go
│   │   ├── product.go
│   │   ├── order.go
│   │   ├── favorite.go
│   │   ├── view_history.go
│   │   └── comment.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── product.go
│   │   ├── order.go
│   │   ├── favorite.go
│   │   ├── view_history.go
│   │   └── comment.go
│   ├── services/
│   │   ├── auth_service.go
│   │   ├── product_service.go
│   │   ├── order_service.go
│   │   ├── favorite_service.go
│   │   ├── view_history_service.go
│   │   ├── comment_service.go
│   │   ├── stats_service.go
│   │   ├── authorization_service.go
│   │   ├── payment_service.go
│   │   └── storage_service.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── i18n.go
│   │   ├── logging.go
│   │   └── rate_limit.go
│   ├── cache/
│   │   └── redis.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── keys.go
│   │   └── locales/
│   ├── database/
│   │   └── connection.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── pagination.go
│   │   ├── response.go
│   │   └── validator.go
│   └── router/
│       └── router.go
├── go.mod
└── go.sum
*/

package techshopbackend

// This file shows the project structure and main entry point
// The actual implementation will be in separate files as shown in the structure above
