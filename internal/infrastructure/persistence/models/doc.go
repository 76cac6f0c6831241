// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel shared by every table
//   - currency.go: currencies and their rate history
//   - catalog.go: products and the stock movement ledger
//   - partner.go: clients, balances, credit lines and their movement records
//   - trade.go: sales, payments, returns, refunds and purchase orders
package models
