// Package formats detects the file format of resource links.
//
// Detection tries, in order, the extension of the URL path, the magic
// bytes of the body, the Content-Type header and the filename of the
// Content-Disposition header. The first source naming a supported format
// decides. Sniff fetches the first bytes of a link with a Range request
// and runs the chain.
package formats
