// Package gate provides profile-based authorization with optional
// per-resource policies. It has no dependency on domain models.
//
// U is the subject type and must be comparable so the zero value can stand
// for "nobody".
package gate
