// Package watch keeps the optimized tree fresh: Watcher reacts to content
// changes with fsnotify and Scheduler runs the full pipeline on an interval.
package watch
