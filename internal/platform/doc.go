// Package platform smooths over operating system differences when writing
// materialized templates. On Windows permission bits are not applied because
// the platform has no Unix-style mode bits.
package platform
