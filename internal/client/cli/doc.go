// Package cli provides the interactive beefboard command-line client.
//
// It wires configuration, local storage, the API client and the
// coordinators, prints every coordinator event, and runs a readline REPL.
// Typical flow: the cached session is shown, confirmed against the server,
// the feed is loaded from cache and then refreshed, and commands follow.
//
// Commands:
//   - feed, refresh           show the feed (cache first / network only)
//   - post <title>            create a post; content and image paths are asked for
//   - pin, unpin, delete <n>  act on a post by id or by its number in the last feed
//   - user <name>             look up a profile
//   - register, login, logout, whoami
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
