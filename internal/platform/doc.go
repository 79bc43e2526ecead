// Package platform provides the filesystem seam used by every component that
// touches a project checkout. OS implements it against the real filesystem;
// tests substitute their own System to inject failures. Writes go through a
// temp file and a rename so a crash never leaves a half-written file behind.
package platform
