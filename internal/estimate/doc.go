// Package estimate implements the data-size estimation core: given a
// spatio-temporal query it determines, without downloading full datasets, how
// many bytes the matching assets would occupy.
//
// Three strategies are combined per query:
//
//   - lazy array introspection: when a cube loader can resolve the matched
//     items into a chunked multi-dimensional dataset, byte totals come from
//     shape x dtype width alone, with a second "sensor-native" total derived
//     from the sensor dtype registry;
//   - declared metadata: assets carrying an explicit byte count
//     (file:size, file:bytes, ...) contribute that value directly;
//   - HEAD probing: remaining assets are probed concurrently for a
//     Content-Length header, with per-request timeout and retry-with-backoff.
//
// The defining failure-isolation property: one bad asset or one unavailable
// subsystem never blacks out the whole estimate. Probe failures degrade to a
// zero-byte contribution tagged method=failed; a failing cube loader triggers
// the per-asset fallback; an empty search result yields a valid zero report.
// Only input validation and catalog capability errors cross the package
// boundary as errors.
package estimate
