package service

import "errors"

// Business-rule sentinel errors raised above the store. The HTTP layer maps
// them to status codes with errors.Is.
var (
	// ErrInvalidPeriod means start is not strictly before end.
	ErrInvalidPeriod = errors.New("booking start must be before end")

	// ErrNotOwner means someone other than the item owner tried to decide a
	// booking.
	ErrNotOwner = errors.New("only the item owner may approve or reject a booking")

	// ErrNotBooker means someone other than the booker tried to cancel.
	ErrNotBooker = errors.New("only the booker may cancel a booking")

	// ErrViewForbidden means the actor is neither the booker nor the owner.
	ErrViewForbidden = errors.New("booking is not visible to this user")

	// ErrAlreadyDecided means the booking is in a terminal status.
	ErrAlreadyDecided = errors.New("booking status can no longer change")

	// ErrEditForbidden means someone other than the owner tried to edit an item.
	ErrEditForbidden = errors.New("only the owner may edit an item")

	// ErrCommentForbidden means the user never finished a booking of the item.
	ErrCommentForbidden = errors.New("commenting requires a finished booking of the item")

	// ErrEmptyComment means the comment text is blank.
	ErrEmptyComment = errors.New("comment text must not be empty")
)
