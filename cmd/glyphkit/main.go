// SPDX-License-Identifier: MPL-2.0

// Command glyphkit resolves icon references against installed packs and
// custom directories, vendors the icons a template corpus uses, and
// manages the local pack installations.
package main

func main() {
	Execute()
}
