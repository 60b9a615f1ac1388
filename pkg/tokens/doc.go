// Package tokens manages the authentication-token lifecycle: issuing signed
// access/refresh pairs, verifying them, and revoking them before their
// natural expiry.
//
// Tokens are compact HMAC-SHA256 JWTs. Every token carries a unique id
// (jti), the user id as subject, issued-at and expiry timestamps, and a
// kind discriminator so a refresh token can never pass as an access token.
//
// Revocation uses two mechanisms behind the RevocationStore interface:
//
//   - single-token revocation records the jti in an expiring blocklist,
//     with a TTL equal to the token's remaining validity;
//   - mass revocation ("log out everywhere") sets a per-user watermark;
//     any token issued before the watermark is treated as revoked at
//     verify time, giving O(1) revocation without enumerating jtis.
//
// Refresh is always rotation: verifying the old refresh token, revoking its
// jti, and issuing a fresh pair. A refresh token is therefore single-use.
//
// Verification fails closed: if the revocation registry cannot be reached,
// Verify reports an error instead of assuming the token is still good.
package tokens
