// Package organize places files into a date-bucketed destination tree.
//
// The placement engine runs each file through resolve, name, guard, and
// transfer steps: the date resolver picks the oldest trustworthy date, the
// namer derives the bucket path and handles name collisions, and the
// duplicate guard compares content checksums so an already-placed file is
// skipped rather than duplicated. The batch driver walks a source tree in
// deterministic order and feeds the engine one file at a time; placement is
// strictly sequential because each decision observes the destination state
// left by the previous one.
package organize
