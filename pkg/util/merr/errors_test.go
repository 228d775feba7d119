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
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrCompressFailed("zstd")
	errors.Wrap(err, "failed to encode payload")
	s.ErrorIs(err, ErrCompressFailed)
	s.Equal(Code(ErrCompressFailed), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := newGardenError("new error", ErrCompressFailed.errCode, false)
	s.True(sameCodeErr.Is(ErrCompressFailed))
}

func (s *ErrSuite) TestWrap() {
	// Transform 相关错误。
	s.ErrorIs(WrapErrTransformFailed("compress", 128, "second attempt failed"), ErrTransformFailed)

	// Compression 相关错误。
	s.ErrorIs(WrapErrCompressFailed("zstd", "encoder error"), ErrCompressFailed)
	s.ErrorIs(WrapErrDecompressFailed("zstd", "corrupt frame"), ErrDecompressFailed)
	s.ErrorIs(WrapErrCompressorClosed("zstd"), ErrCompressorClosed)

	// Encryption 相关错误。
	s.ErrorIs(WrapErrEncryptFailed("aes-gcm"), ErrEncryptFailed)
	s.ErrorIs(WrapErrDecryptFailed("aes-gcm", "authentication failed"), ErrDecryptFailed)
	s.ErrorIs(WrapErrKeyInvalid("aes-gcm", 16, 32), ErrKeyInvalid)
	s.ErrorIs(WrapErrIVInvalid("aes-gcm", 8, 12), ErrIVInvalid)

	// Hash 相关错误。
	s.ErrorIs(WrapErrHashFailed("sha256"), ErrHashFailed)

	// Obfuscation 相关错误。
	s.ErrorIs(WrapErrObfuscateFailed("xor"), ErrObfuscateFailed)
	s.ErrorIs(WrapErrDeobfuscateFailed("xor"), ErrDeobfuscateFailed)

	// Serialization 相关错误。
	s.ErrorIs(WrapErrSerializeFailed("json"), ErrSerializeFailed)
	s.ErrorIs(WrapErrDeserializeFailed("json", "unexpected token"), ErrDeserializeFailed)

	// Codec 相关错误。
	s.ErrorIs(WrapErrEnvelopeCorrupted("header truncated"), ErrEnvelopeCorrupted)
	s.ErrorIs(WrapErrStageDisabled("encrypt"), ErrStageDisabled)
	s.ErrorIs(WrapErrAlgorithmUnsupported("hash", "md4"), ErrAlgorithmUnsupported)

	// Parameter 相关错误。
	s.ErrorIs(WrapErrParameterInvalid(8, 1, "expected 8"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("%v should be greater than %v", 1, 8), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("key"), ErrParameterMissing)
}

func (s *ErrSuite) TestRetryable() {
	s.False(IsRetryableErr(ErrTransformFailed))
	s.False(IsRetryableErr(ErrDecryptFailed))
	s.True(IsRetryableErr(ErrPoolSubmitFailed))
	s.False(IsRetryableErr(errors.New("not a garden error")))
}

func (s *ErrSuite) TestCanceledOrTimeout() {
	s.True(IsCanceledOrTimeout(context.Canceled))
	s.True(IsCanceledOrTimeout(context.DeadlineExceeded))
	s.False(IsCanceledOrTimeout(ErrTransformFailed))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("second: first", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	s.Error(Combine(nil, err))
	s.Error(Combine(err, nil))
	s.NoError(Combine(nil, nil))
}

func (s *ErrSuite) TestCombineOnlyNil() {
	s.NoError(Combine(nil, nil))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
