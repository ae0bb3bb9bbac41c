// Package api exposes the paginator over HTTP and API Gateway.
//
// List routes accept filters as query parameters, typed by the entity
// catalog, and return one page with an opaque nextToken:
//
//	GET /users?company=Acme&hostedEventCountMin=2&limit=25
//	GET /emails/analytics?status=sent&createdAtMin=2024-03-01&nextToken=...
package api
