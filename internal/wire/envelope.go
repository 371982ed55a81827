package wire

import (
	"encoding/binary"
	"fmt"
)

// SizeFunctionCall, SerializeFunctionCall and DeserializeFunctionCall
// encode/decode a FunctionCall as: tag byte, uid (u64), class name
// (string), function name (string), arguments (value array).

func SizeFunctionCall(c FunctionCall) int {
	return 1 + 8 + sizeString(c.ClassName) + sizeString(c.FunctionName) + sizeValues(c.Arguments)
}

func SerializeFunctionCall(c FunctionCall) []byte {
	buf := make([]byte, SizeFunctionCall(c))
	off := 0
	buf[off] = TagFunctionCall
	off++
	binary.LittleEndian.PutUint64(buf[off:off+8], c.UID)
	off += 8
	off = serializeString(c.ClassName, buf, off)
	off = serializeString(c.FunctionName, buf, off)
	serializeValues(c.Arguments, buf, off)
	return buf
}

func DeserializeFunctionCall(buf []byte) (FunctionCall, error) {
	if len(buf) < 1 || buf[0] != TagFunctionCall {
		return FunctionCall{}, fmt.Errorf("%w: not a function call envelope", ErrDecode)
	}
	off := 1
	if off+8 > len(buf) {
		return FunctionCall{}, fmt.Errorf("%w: truncated uid", ErrDecode)
	}
	uid := binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	class, off, err := deserializeString(buf, off)
	if err != nil {
		return FunctionCall{}, err
	}
	fn, off, err := deserializeString(buf, off)
	if err != nil {
		return FunctionCall{}, err
	}
	args, _, err := deserializeValues(buf, off)
	if err != nil {
		return FunctionCall{}, err
	}
	return FunctionCall{UID: uid, ClassName: class, FunctionName: fn, Arguments: args}, nil
}

// SizeFunctionReply, SerializeFunctionReply and DeserializeFunctionReply
// encode/decode a FunctionReply as: tag byte, uid (u64), values (value
// array), error message (string, empty on success).

func SizeFunctionReply(r FunctionReply) int {
	return 1 + 8 + sizeValues(r.Values) + sizeString(r.Error)
}

func SerializeFunctionReply(r FunctionReply) []byte {
	buf := make([]byte, SizeFunctionReply(r))
	off := 0
	buf[off] = TagFunctionReply
	off++
	binary.LittleEndian.PutUint64(buf[off:off+8], r.UID)
	off += 8
	off = serializeValues(r.Values, buf, off)
	serializeString(r.Error, buf, off)
	return buf
}

func DeserializeFunctionReply(buf []byte) (FunctionReply, error) {
	if len(buf) < 1 || buf[0] != TagFunctionReply {
		return FunctionReply{}, fmt.Errorf("%w: not a function reply envelope", ErrDecode)
	}
	off := 1
	if off+8 > len(buf) {
		return FunctionReply{}, fmt.Errorf("%w: truncated uid", ErrDecode)
	}
	uid := binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	values, off, err := deserializeValues(buf, off)
	if err != nil {
		return FunctionReply{}, err
	}
	errMsg, _, err := deserializeString(buf, off)
	if err != nil {
		return FunctionReply{}, err
	}
	return FunctionReply{UID: uid, Values: values, Error: errMsg}, nil
}

// SizeAuthenticate, SerializeAuthenticate and DeserializeAuthenticate
// encode/decode an Authenticate handshake as: tag byte, name (string),
// password (string).

func SizeAuthenticate(a Authenticate) int {
	return 1 + sizeString(a.Name) + sizeString(a.Password)
}

func SerializeAuthenticate(a Authenticate) []byte {
	buf := make([]byte, SizeAuthenticate(a))
	off := 0
	buf[off] = TagAuthenticate
	off++
	off = serializeString(a.Name, buf, off)
	serializeString(a.Password, buf, off)
	return buf
}

func DeserializeAuthenticate(buf []byte) (Authenticate, error) {
	if len(buf) < 1 || buf[0] != TagAuthenticate {
		return Authenticate{}, fmt.Errorf("%w: not an authenticate envelope", ErrDecode)
	}
	off := 1
	name, off, err := deserializeString(buf, off)
	if err != nil {
		return Authenticate{}, err
	}
	password, _, err := deserializeString(buf, off)
	if err != nil {
		return Authenticate{}, err
	}
	return Authenticate{Name: name, Password: password}, nil
}

// SizeAuthenticateReply, SerializeAuthenticateReply and
// DeserializeAuthenticateReply encode/decode an AuthenticateReply as: tag
// byte, auth flag (one byte, 0 or 1).

func SizeAuthenticateReply(_ AuthenticateReply) int { return 2 }

func SerializeAuthenticateReply(r AuthenticateReply) []byte {
	buf := make([]byte, 2)
	buf[0] = TagAuthenticateReply
	if r.Auth {
		buf[1] = 1
	}
	return buf
}

func DeserializeAuthenticateReply(buf []byte) (AuthenticateReply, error) {
	if len(buf) < 2 || buf[0] != TagAuthenticateReply {
		return AuthenticateReply{}, fmt.Errorf("%w: not an authenticate-reply envelope", ErrDecode)
	}
	return AuthenticateReply{Auth: buf[1] != 0}, nil
}

// PeekTag returns the envelope discriminant byte of a frame payload
// without decoding the rest of it, so a connection pump can route the
// frame to the right decoder before committing to a full parse.
func PeekTag(buf []byte) (byte, error) {
	if len(buf) < 1 {
		return 0, fmt.Errorf("%w: empty envelope", ErrDecode)
	}
	return buf[0], nil
}
