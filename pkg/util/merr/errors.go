// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Transform related.
	// The sizing protocol never reaches this channel: a destination buffer
	// that is too small is reported through the attempt outcome, not as an
	// error. Only non-recoverable failures live here.
	ErrTransformFailed = newGardenError("transform failed", 1, false)

	// Compression related
	ErrCompressFailed   = newGardenError("compress failed", 100, false)
	ErrDecompressFailed = newGardenError("decompress failed", 101, false)
	ErrCompressorClosed = newGardenError("compressor closed", 102, false)

	// Encryption related
	ErrEncryptFailed = newGardenError("encrypt failed", 200, false)
	ErrDecryptFailed = newGardenError("decrypt failed", 201, false)
	ErrKeyInvalid    = newGardenError("invalid key", 202, false)
	ErrIVInvalid     = newGardenError("invalid iv", 203, false)

	// Hash related
	ErrHashFailed = newGardenError("hash failed", 300, false)

	// Obfuscation related
	ErrObfuscateFailed   = newGardenError("obfuscate failed", 400, false)
	ErrDeobfuscateFailed = newGardenError("deobfuscate failed", 401, false)

	// Serialization related
	ErrSerializeFailed   = newGardenError("serialize failed", 500, false)
	ErrDeserializeFailed = newGardenError("deserialize failed", 501, false)

	// Codec pipeline related
	ErrEnvelopeCorrupted = newGardenError("envelope corrupted", 600, false)
	ErrStageDisabled     = newGardenError("pipeline stage disabled", 601, false)

	// Algorithm selector related
	ErrAlgorithmUnsupported = newGardenError("unsupported algorithm", 700, false)

	// Worker pool related
	ErrPoolSubmitFailed = newGardenError("submit task to pool failed", 800, true)

	// Parameter related
	ErrParameterInvalid = newGardenError("invalid parameter", 1100, false)
	ErrParameterMissing = newGardenError("missing parameter", 1101, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to gardenError
	errUnexpected = newGardenError("unexpected error", (1<<16)-1, false)
)

type gardenError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
}

func newGardenError(msg string, code int32, retriable bool) gardenError {
	return gardenError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}
}

func (e gardenError) code() int32 {
	return e.errCode
}

func (e gardenError) Error() string {
	return e.msg
}

func (e gardenError) Detail() string {
	return e.detail
}

func (e gardenError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(gardenError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
