package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// EmptyBlockError is returned when an operation that requires a live block receives an empty one
var EmptyBlockError error = errors.New("block is empty")

// ZeroSizeError is returned when an allocation of zero bytes or zero descriptors is requested
var ZeroSizeError error = errors.New("allocation size must be greater than zero")
