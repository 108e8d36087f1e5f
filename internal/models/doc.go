// Package models defines the persisted records of the expense ledger.
//
// # Records
//
//   - Group: a set of people who share expenses
//   - Expense: one purchase paid by a single member and split into shares
//   - Share: the part of an expense attributed to one participant
//   - Payment: a direct transfer between two members
//
// Members are identified by name strings, as in the groups they belong to.
//
// # Design Principles
//
// 1. **Immutable ledger**: expenses and payments are recorded once and only deleted, never edited
// 2. **Exact money**: all amounts are decimal.Decimal, never float64
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
package models
