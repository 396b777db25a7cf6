package domain

import "slices"

// Following is the ordered set of usernames one account follows.
type Following []string

// Contains reports whether target is already followed.
func (f Following) Contains(target string) bool {
	return slices.Contains(f, target)
}

// Add appends target, enforcing the no-self-follow and no-duplicate rules.
// The receiver is left untouched when an error is returned.
func (f Following) Add(follower, target string) (Following, error) {
	if err := CheckFollowTarget(follower, target); err != nil {
		return f, err
	}
	if f.Contains(target) {
		return f, ErrAlreadyFollowing
	}
	return append(f, target), nil
}

// Remove drops target, or returns ErrNotFollowing if it is absent.
func (f Following) Remove(target string) (Following, error) {
	i := slices.Index(f, target)
	if i < 0 {
		return f, ErrNotFollowing
	}
	return slices.Delete(slices.Clone(f), i, i+1), nil
}

// CheckFollowTarget rejects an account following itself.
func CheckFollowTarget(follower, target string) error {
	if follower == target {
		return ErrSelfFollow
	}
	return nil
}
