// Package fetcher downloads the published artifacts of one release into a
// version-named directory.
//
// Every archive is fetched together with its .asc and .md5 side-files. The
// side-files are stored as downloaded; verifying them is left to the operator.
package fetcher
