// Package catalog publishes the datasets of the portal as a DCAT-AP
// catalog in Turtle or N-Triples.
package catalog
