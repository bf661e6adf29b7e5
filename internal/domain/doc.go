// Package domain models environmental events observed across India and the
// alerts raised from them.
//
// # Data Source
//
// Fire detections come from NASA FIRMS (Fire Information for Resource
// Management System), which publishes near-real-time thermal anomalies from the
// VIIRS and MODIS instruments as CSV at
// https://firms.modaps.eosdis.nasa.gov/api/. Each row is one Detection; the
// ingestion pipeline fetches the country feed, parses it with [ParseFeed] and
// turns every usable row into an [Event].
//
// # FIRMS Conventions
//
// Coordinates:
//
//	"latitude" and "longitude" in decimal degrees (WGS-84). A value that fails
//	to parse, or parses to exactly 0, makes the row unusable and it is dropped.
//	A genuine detection on the equator or prime meridian is therefore lost;
//	neither crosses India.
//
// Acquisition time:
//
//	"acq_date" is YYYY-MM-DD, "acq_time" is HHMM in UTC ("930" means 09:30).
//
// Confidence:
//
//	The categories "low", "nominal" and "high" score 0.50, 0.75 and 0.90. Any
//	other value, including one-letter forms and MODIS 0-100 percentages, is
//	scored from the "brightness" column (Kelvin) over 400K, capped at 1. Feeds
//	without that column score 0. See [ResolveConfidence].
//
// # Regions
//
// Detections are bucketed into a coarse named region by testing an ordered
// table of state bounding boxes; the first box containing the point wins and
// points outside every box are labelled "India". See [ResolveRegion].
//
// # Severity
//
// A single table maps (event type, confidence) to a four-level severity with
// strict greater-than comparisons:
//
//	fire          > 0.90 critical | > 0.75 high
//	deforestation > 0.80 high
//	flood         > 0.80 high
//	any type      > 0.60 medium   | otherwise low
//
// See [ClassifySeverity].
//
// # ID Generation
//
// Feed event IDs are deterministic SHA-256 hashes of
// satellite|acq_date|acq_time|lat|lon. Re-ingesting the same feed window yields
// the same IDs, so stores can skip rows they already hold. Alert IDs derive
// from the event they belong to. See [FeedEventID] and [AlertID].
package domain
