// Command videoai runs the media job engine daemon and provides job and
// configuration utilities.
package main
