// Package poslog provides the transactional ledger engine behind a small
// point-of-sale and inventory tracker. All state is persisted as plain
// delimited text files grouped by calendar day, so the data directory is
// human-readable, diffable, and trivially backed up.
//
// The core responsibilities are:
//   - Order Sequencing: allocating globally unique, monotonically increasing
//     order identifiers across concurrent sale submissions, durably persisted
//     before an id is ever handed out.
//   - Daily Partitioning: mapping each record's calendar date to its own
//     on-disk folder, seeding empty stores with correct headers on first use.
//   - Entity Storage: generic list/get/append/update/delete over typed record
//     sets backed by one CSV file per entity type, with per-file mutual
//     exclusion and rename-swap writes so a reader never observes a
//     half-written row.
//   - Stock Keeping: atomic quantity adjustments on ready products and raw
//     materials, rejecting writes that would drive stock negative and raising
//     low-stock advisories against configured thresholds.
//   - Checkout Coordination: the multi-line sale protocol that decrements
//     stock for every line or none, stamps one order id on all lines, and
//     persists them to the day's partition.
//
// This package serves as the foundational logic for the `tbm` command-line
// tool and the HTTP collaborator in the server package.
package poslog
