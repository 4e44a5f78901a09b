// Package mailer defines the outbound notification boundary of the engine.
// The engine only ever sends through [Dispatcher], which is fire-and-forget:
// a slow or failing transport can drop mail but can never block or fail a
// login request.
package mailer
