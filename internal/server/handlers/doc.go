// Package handlers provides the HTTP handlers served by llmdocs: raw, optimized and
// rendered documents, the llms.txt index, health, stats and run triggers.
package handlers
