// Package envelope prepares a message for embedding and restores it after
// extraction. It optionally compresses the message with zstd and
// optionally encrypts it under a passphrase.
//
// Two ciphers are available. SchemeOpenSSL produces the salted OpenSSL
// format that CryptoJS.AES.encrypt(message, passphrase).toString() emits,
// so payloads interoperate with browser tools built on CryptoJS.
// SchemeXChaCha derives the key with scrypt and seals with
// XChaCha20-Poly1305, which also authenticates the payload.
//
// Every sealed form other than an uncompressed plain message is base64
// text.
package envelope
