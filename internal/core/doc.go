// Package core provides the dataset store and view logic for the statistics
// dashboard.
//
// This package holds all domain logic independent of any UI, transport or
// file format. The web layer, tests and any future CLI use it unchanged.
//
// # Dataset Store
//
// A [Store] is built once at startup from two raw tables: the season table
// (one row per player per season) and the player table (one row per player).
// Construction validates headers and statistic cells; after that the store is
// immutable and safe for concurrent readers without locking.
//
//	store, err := core.NewStore(season, player, core.StoreOptions{StatisticOffset: 8})
//	if err != nil {
//	    // fatal: the dashboard cannot start
//	}
//
// Statistic columns are discovered from the season header: every column from
// StatisticOffset up to, but excluding, the last column.
//
// # Views
//
// [Store.ComputeView] turns a [Selection] (statistic, limit, team, position)
// into a ranked, truncated list of bars plus a chart title. It never mutates
// the store and recomputes from the full season table on every call.
//
// [Store.QueryPlayers] serves the player table with column filters,
// multi-column sorting and paging.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - SEL001-SEL002: Selection errors (bad statistic, limit, column, operator)
//   - DS001-DS004: Dataset errors (missing columns, malformed cells, sheets)
//   - REQ001-REQ002: Request errors (cancelled, timed out)
//   - RATE001, WS001-WS002: Throttling and live session errors
package core
