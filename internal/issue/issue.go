// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	NameNotFoundId
	NameAmbiguousId
	NoProvidersAvailableId
	LaunchFailedId
	InvalidSourceId
	InvalidFormatId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
	links []HttpLink  // reference material listed under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue as terminal markdown using the glamour style
// at stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.links) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.links {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

const (
	cueDocsLink      HttpLink = "https://cuelang.org/docs/"
	desktopEntryLink HttpLink = "https://specifications.freedesktop.org/desktop-entry-spec/latest/"
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the file location:
~~~
$ appgrep config path
~~~
- Compare it with a known-good configuration:
~~~
$ appgrep config dump
~~~
- Check ` + "`APPGREP_*`" + ` environment variables; they override the file.
- Search weights must be positive and strictly decreasing:
~~~cue
search: weights: {exact: 100, prefix: 75, substring: 50, subsequence: 25}
~~~`,
		links: []HttpLink{cueDocsLink},
	}

	nameNotFoundIssue = &Issue{
		id: NameNotFoundId,
		mdMsg: `
# Application not found!

No installed application matches the name you gave.

## Things you can try:
- Search with a shorter or fuzzier query:
~~~
$ appgrep search fire
~~~
- List everything one source knows about:
~~~
$ appgrep list --source flatpak
~~~
- Check that the provider that installed it is available:
~~~
$ appgrep doctor
~~~`,
		links: []HttpLink{desktopEntryLink},
	}

	nameAmbiguousIssue = &Issue{
		id: NameAmbiguousId,
		mdMsg: `
# Application name is ambiguous!

Several applications match the name equally well, so none was picked.

## Things you can try:
- Use the full name of one of the candidates listed above.
- Names are case-insensitive, and an exact name always wins:
~~~
$ appgrep info "Firefox Web Browser"
~~~`,
	}

	noProvidersAvailableIssue = &Issue{
		id: NoProvidersAvailableId,
		mdMsg: `
# No application sources are available!

Every provider was disabled, missing its backing tool, or failed.

## Things you can try:
- Inspect each provider:
~~~
$ appgrep doctor
~~~
- Re-enable sources removed by ` + "`discovery.disabled`" + ` in your configuration.
- Raise the per-provider timeout if package managers are slow:
~~~
$ appgrep --timeout 15s list
~~~`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# Failed to launch the application!

The launch command could not be started.

## Things you can try:
- Print the command that was used:
~~~
$ appgrep path <name>
~~~
- Run it directly in your shell to see its error output.
- Reinstall the application if its executable has moved.`,
		links: []HttpLink{desktopEntryLink},
	}

	invalidSourceIssue = &Issue{
		id: InvalidSourceId,
		mdMsg: `
# Unknown application source!

Valid sources are: desktop, flatpak, snap, dpkg, rpm, pacman, brew, cargo,
npm and standalone.

## Example:
~~~
$ appgrep list --source cargo --source npm
~~~`,
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Unknown output format!

Valid formats are: table, json, tsv, names and exec.

## Example:
~~~
$ appgrep list --format tsv
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		nameNotFoundIssue.Id():         nameNotFoundIssue,
		nameAmbiguousIssue.Id():        nameAmbiguousIssue,
		noProvidersAvailableIssue.Id(): noProvidersAvailableIssue,
		launchFailedIssue.Id():         launchFailedIssue,
		invalidSourceIssue.Id():        invalidSourceIssue,
		invalidFormatIssue.Id():        invalidFormatIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
