// Package main Sellforge Server API
//
//	@title						Sellforge Server API
//	@version					1.0
//	@description				Backend API for the Sellforge digital goods marketplace
//	@termsOfService				https://sellforge.io/terms
//
//	@contact.name				Sellforge Support
//	@contact.url				https://sellforge.io/support
//	@contact.email				support@sellforge.io
//
//	@license.name				Proprietary
//	@license.url				https://sellforge.io/license
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Catalog
//	@tag.description			Product catalog endpoints
//
//	@tag.name					Cart
//	@tag.description			Shopping cart endpoints
//
//	@tag.name					Checkout
//	@tag.description			Checkout session endpoints
//
//	@tag.name					Billing
//	@tag.description			Plans and subscription endpoints
//
//	@tag.name					Settings
//	@tag.description			Seller settings endpoints
//
//	@tag.name					User
//	@tag.description			User profile endpoints
//
//	@tag.name					Payment
//	@tag.description			Payment history and webhook endpoints
//
//	@tag.name					Delivery
//	@tag.description			Purchased file download endpoints
package main
