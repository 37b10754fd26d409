// Package digest turns newsletter emails into a library of summarised links.
// It extracts the URLs embedded in each email, classifies them by the kind
// of content they point to, parses the linked HTML into structured article
// data and stores the result alongside an optional AI-generated summary.
//
// This package contains domain types, interfaces and pure domain functions
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, gemini/).
package digest
