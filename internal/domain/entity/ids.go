// Package entity holds the bridge's domain types: identifiers, script messages,
// host methods and their response variants, message channels and origin rules.
package entity

import "strconv"

// RendererID identifies one renderer instance attached to the bridge.
type RendererID uint64

func (id RendererID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// WindowID identifies a child window transport. Ids are process-wide and
// strictly increasing; zero is never allocated.
type WindowID int64

func (id WindowID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ContentWorld names an isolated script realm inside a page.
// The empty world is the page's own realm.
type ContentWorld string

// PageWorld is the realm page scripts run in.
const PageWorld ContentWorld = ""
