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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case gardenError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

func IsRetryableErr(err error) bool {
	if err, ok := err.(gardenError); ok {
		return err.retriable
	}

	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

// Transform 相关错误封装。

func WrapErrTransformFailed(op string, required int, msg ...string) error {
	err := wrapFields(ErrTransformFailed,
		value("op", op),
		value("required", required),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Compression 相关错误封装。

func WrapErrCompressFailed(algorithm string, msg ...string) error {
	err := wrapFields(ErrCompressFailed, value("algorithm", algorithm))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDecompressFailed(algorithm string, msg ...string) error {
	err := wrapFields(ErrDecompressFailed, value("algorithm", algorithm))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCompressorClosed(algorithm string) error {
	return wrapFields(ErrCompressorClosed, value("algorithm", algorithm))
}

// Encryption 相关错误封装。

func WrapErrEncryptFailed(cipher string, msg ...string) error {
	err := wrapFields(ErrEncryptFailed, value("cipher", cipher))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDecryptFailed(cipher string, msg ...string) error {
	err := wrapFields(ErrDecryptFailed, value("cipher", cipher))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrKeyInvalid(cipher string, got, want int) error {
	return wrapFields(ErrKeyInvalid,
		value("cipher", cipher),
		value("got(bytes)", got),
		value("want(bytes)", want),
	)
}

func WrapErrIVInvalid(cipher string, got, want int) error {
	return wrapFields(ErrIVInvalid,
		value("cipher", cipher),
		value("got(bytes)", got),
		value("want(bytes)", want),
	)
}

// Hash 相关错误封装。

func WrapErrHashFailed(algorithm string, msg ...string) error {
	err := wrapFields(ErrHashFailed, value("algorithm", algorithm))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Obfuscation 相关错误封装。

func WrapErrObfuscateFailed(cipher string, msg ...string) error {
	err := wrapFields(ErrObfuscateFailed, value("cipher", cipher))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDeobfuscateFailed(cipher string, msg ...string) error {
	err := wrapFields(ErrDeobfuscateFailed, value("cipher", cipher))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Serialization 相关错误封装。

func WrapErrSerializeFailed(format string, msg ...string) error {
	err := wrapFields(ErrSerializeFailed, value("format", format))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDeserializeFailed(format string, msg ...string) error {
	err := wrapFields(ErrDeserializeFailed, value("format", format))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Codec 相关错误封装。

func WrapErrEnvelopeCorrupted(reason string) error {
	return wrapFieldsWithDesc(ErrEnvelopeCorrupted, reason)
}

func WrapErrStageDisabled(stage string) error {
	return wrapFields(ErrStageDisabled, value("stage", stage))
}

func WrapErrAlgorithmUnsupported(kind, name string) error {
	return wrapFields(ErrAlgorithmUnsupported,
		value("kind", kind),
		value("name", name),
	)
}

func WrapErrPoolSubmitFailed(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(ErrPoolSubmitFailed, err.Error())
}

// Parameter 相关错误封装。

func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmtStr string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmtStr, args...)
}

func WrapErrParameterMissing(param string, msg ...string) error {
	err := wrapFields(ErrParameterMissing, value("missing_param", param))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err gardenError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err gardenError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
