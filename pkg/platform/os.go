// SPDX-License-Identifier: MPL-2.0

package platform

// Operating system names as reported by runtime.GOOS. Callers switch on
// these instead of scattering string literals through the codebase.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
