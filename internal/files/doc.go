// Package files locates data sources inside the study data directory.
//
// Site data arrives from several origins (school filesystems, archive
// tools, manual uploads), so the same visible filename can carry
// different Unicode code-point sequences. Hangul in particular shows up
// composed (NFC) or decomposed (NFD) depending on the source; macOS
// archives are the usual offender. Every comparison in this package
// therefore runs through NFC normalization first.
//
// Two matching modes are provided: exact filename equality, and
// key-containment, which additionally strips cosmetic separators
// (spaces, underscores, hyphens) before a substring match. Candidate
// names are scanned in sorted order so the result does not depend on
// directory iteration order.
package files
