// Package password implements Argon2id password hashing with PHC-formatted
// output and constant-time verification.
package password
