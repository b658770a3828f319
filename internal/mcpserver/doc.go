// Package mcpserver exposes the player as Model Context Protocol tools so an
// assistant can drive a drill session over stdio.
package mcpserver
