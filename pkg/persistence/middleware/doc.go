/*
Package middleware wraps snapshot stores with cross-cutting persistence behavior.

  - NewEncryptionMiddleware stores each tree as an AES-GCM envelope, with key rotation.
  - NewMaskingMiddleware hides the values of sensitive attributes before they are stored.

Middlewares compose with Chain.
*/
package middleware
