// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ConfigParseErrorId
	IconNotFoundId
	UnknownNamespaceId
	PackNotInstalledId
	PackDownloadFailedId
	CacheStoreFailedId
	NoIconsFoundId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project docs pages; unused until a docs site exists
	extLinks []HttpLink  // upstream pages worth pointing the user at
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the glyphkit configuration file.

## Configuration file locations:
- Linux: ~/.config/glyphkit/glyphkit.cue
- macOS: ~/Library/Application Support/glyphkit/glyphkit.cue
- Windows: %APPDATA%\glyphkit\glyphkit.cue

## Things you can try:
- Create a default configuration:
~~~
$ glyphkit config init
~~~

- Check the configuration file permissions
- Remove the config file to run on defaults

## Example configuration:
~~~cue
default_namespace: "ion"

cache: {
	capacity: 1000
	ttl:      "24h"
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	configParseErrorIssue = &Issue{
		id: ConfigParseErrorId,
		mdMsg: `
# Failed to parse configuration!

Your glyphkit.cue contains syntax errors or values the schema rejects.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Invalid values for known fields (e.g. cache.store must be "none", "bolt", or "sqlite")
- URL templates without a {name} placeholder

## Things you can try:
- Check the error message above for the exact field path
- Re-check the file after editing:
~~~
$ glyphkit config validate
~~~

- Regenerate a known-good file:
~~~
$ glyphkit config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	iconNotFoundIssue = &Issue{
		id: IconNotFoundId,
		mdMsg: `
# Icon not found!

The reference did not resolve against any bound source.

## Things you can try:
- List what each namespace can serve:
~~~
$ glyphkit list
~~~

- Check for typos in the icon name
- Install the pack that provides this namespace:
~~~
$ glyphkit packs install
~~~

- Download the icons your templates use:
~~~
$ glyphkit collect
~~~`,
	}

	unknownNamespaceIssue = &Issue{
		id: UnknownNamespaceId,
		mdMsg: `
# Unknown namespace!

No source is registered for the namespace in your reference.

## Built-in pack namespaces:
- **ion** (Ionicons), **hero** (Heroicons), **material** (Material Design),
  **tabler** (Tabler), **lucide** (Lucide), **fa** (Font Awesome)

## Things you can try:
- List registered namespaces:
~~~
$ glyphkit list
~~~

- Install the pack behind the namespace:
~~~
$ glyphkit packs install ionicons
~~~

- Bind a custom directory in glyphkit.cue:
~~~cue
icon_dirs: {
	custom: "./assets/icons"
}
~~~`,
	}

	packNotInstalledIssue = &Issue{
		id: PackNotInstalledId,
		mdMsg: `
# Icon pack not installed!

The pack is in the catalog but its files are not on disk yet.

## Things you can try:
- Install it:
~~~
$ glyphkit packs install heroicons
~~~

- See what is installed:
~~~
$ glyphkit packs list
~~~`,
	}

	packDownloadFailedIssue = &Issue{
		id: PackDownloadFailedId,
		mdMsg: `
# Pack download failed!

The pack archive could not be downloaded or extracted.

## Common causes:
- No network connectivity, or a proxy in the way
- The upstream release URL moved
- Not enough disk space for the archive

## Things you can try:
- Check connectivity to github.com and retry; installs are safe to re-run
- Inspect the pack descriptor:
~~~
$ glyphkit packs info heroicons
~~~

- Point packs_dir at a directory with more space:
~~~cue
packs_dir: "/var/lib/glyphkit/packs"
~~~`,
	}

	cacheStoreFailedIssue = &Issue{
		id: CacheStoreFailedId,
		mdMsg: `
# Persistent cache unavailable!

The tier-2 cache store could not be opened, so resolution is running with
the in-memory tier only.

## Common causes:
- Another glyphkit process holds the bolt file lock
- The cache directory is not writable

## Things you can try:
- Close other glyphkit processes
- Remove the cache file to start fresh
- Switch the backing store in glyphkit.cue:
~~~cue
cache: {
	store: "sqlite"
}
~~~`,
	}

	noIconsFoundIssue = &Issue{
		id: NoIconsFoundId,
		mdMsg: `
# No icon references found!

The scan completed but found no icon tags in the corpus.

## Things you can try:
- Point the scan at your template roots:
~~~
$ glyphkit collect --root ./web
~~~

- Confirm your templates use the tag form:
~~~
{% icon "ion:home" %}
~~~

- Widen the extension list in glyphkit.cue:
~~~cue
collect: {
	extensions: [".html", ".txt", ".jinja"]
}
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		configParseErrorIssue.Id():   configParseErrorIssue,
		iconNotFoundIssue.Id():       iconNotFoundIssue,
		unknownNamespaceIssue.Id():   unknownNamespaceIssue,
		packNotInstalledIssue.Id():   packNotInstalledIssue,
		packDownloadFailedIssue.Id(): packDownloadFailedIssue,
		cacheStoreFailedIssue.Id():   cacheStoreFailedIssue,
		noIconsFoundIssue.Id():       noIconsFoundIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
