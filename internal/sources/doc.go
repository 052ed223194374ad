// Package sources provides the built-in rotation content sources: the
// clock/stats screen, the hostname/external-IP screen and the static
// text source. Each implements ports.Source; probing sources bound
// their own delays and skip their slot on failure rather than stalling
// the tick loop.
package sources
