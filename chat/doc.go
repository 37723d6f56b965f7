// Package chat provides a plain conversational session on top of a model
// capability, with no goal loop and no tool access.
package chat
