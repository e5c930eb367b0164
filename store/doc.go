// Package store provides the map-backed primary store for keydex.
package store
