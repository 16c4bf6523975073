/*
Package session manages render sessions.

A session pairs a host container with an ID under which its committed tree is
persisted. The Manager serializes work on each session with reference-counted
locks, so concurrent requests for the same session render one after another
while different sessions proceed in parallel.
*/
package session
