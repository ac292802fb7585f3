// Package pagecount turns user supplied text into a validated page count and
// back into the pages query parameter used to share and reload a result.
// Every input surface (form, URL, API query, command line) goes through Parse
// so they agree on what counts as a valid page count.
package pagecount
