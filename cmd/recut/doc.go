// Recut applies the removals found by an analysis step to podcast audio.
//
// Usage:
//
//	recut edit episode.wav --analysis episode.json [--export-edl episode.edl]
//	recut preview episode.wav --analysis episode.json
//	recut batch *.wav --analysis-dir analyses --export json,edl
//	recut export episode.wav --analysis episode.json --format edl,csv
//	recut waveform episode.wav --resolution thumbnail
//	recut info episode.m4a
//	recut version
//
// Configuration comes from RECUT_* environment variables and an optional
// TOML file given with --config; command flags override both.
package main
