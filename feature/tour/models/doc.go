// Package models defines the tour categories and the gorm models for the
// local tables.
//
// Non-event categories share tour_spots keyed by (content_type_id, content_id);
// events live in tour_events with their start and end dates. Every row carries
// two field groups: Structural, rewritten by sync, and Enrichment, written only
// by enrichment passes or by an operator.
package models
