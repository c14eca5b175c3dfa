// Package core implements the in-process actor runtime handed out by the
// builder package.
//
// An ActorSystem owns named services and anonymous actors. Each actor
// processes its mailbox sequentially; Shutdown stops every actor and then
// closes the channel returned by Terminated.
package core
