// Package credentials hashes and verifies passwords with bcrypt. It owns no
// state beyond the hash parameters; storage of the resulting hashes belongs
// to the user record's owner.
//
//	hasher := credentials.NewHasher()
//	hash, err := hasher.Hash("s3cret")
//	...
//	if err := hasher.Verify(hash, candidate); err != nil {
//	    // credentials.ErrPasswordMismatch
//	}
package credentials
