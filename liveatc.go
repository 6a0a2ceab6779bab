// Package liveatc scrapes airport profiles and ATC audio feeds from
// LiveATC search pages and keeps them in a local or remote store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, postgres/).
package liveatc

// DefaultBaseURL is the site every relative stream and search path is
// resolved against.
const DefaultBaseURL = "https://www.liveatc.net"
