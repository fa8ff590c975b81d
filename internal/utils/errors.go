package utils

import "errors"

/*
   Sentinel errors for the matching-engine domain logic.
   Callers can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrPropertyNotFound = errors.New("property_not_found")
	ErrWrongPoolStatus  = errors.New("wrong_pool_status")
)
