// Package view derives what a frontend renders from the query coordinators:
// the active list mode, the current page, normalized display items and the
// loading/error flags, plus formatting helpers for detail records.
//
// A Controller owns one ListQuery, one InfiniteListQuery and one
// DetailByIDQuery over a shared cache store. Only the coordinator of the
// active mode is enabled at any time.
package view
