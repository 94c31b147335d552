// Package ui is claimdeck's Bubble Tea dashboard.
//
// The Model polls state.Store on a tick and derives what to draw in three
// memoized steps: format.Formatter turns raw claims into display rows,
// query.Pipeline applies status filter, sort and the debounced search term,
// and view.Composer turns the resulting length into the window of items to
// render for the active layout.
//
// # Layouts
//
//   - List: one claim per row (two lines, one while a filter or search is
//     active) under a column header. Digits sort by the n-th column.
//   - Grid: bordered cards, as many per row as the terminal width allows.
//
// Each layout keeps its own scroll offset; v toggles between them.
//
// # Overlays
//
//   - /: search input; the term settles after the configured delay
//   - f: status checklist built from the loaded claims
//   - c: column visibility
//   - enter: claim detail, refreshed from the API
//   - h or ?: key bindings
//
// Theme, layout, sort, selected statuses and hidden columns are written to
// the prefs file whenever they change.
package ui
