// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"github.com/go-gl/mathgl/mgl32"
	jsoniter "github.com/json-iterator/go"
	"reflect"
	"sync"
	"unsafe"
)

// Make sure functions get run first
var json = func() jsoniter.API {
	neverEmpty := func(pointer unsafe.Pointer) bool { return false }

	// Encoders
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(Message{}).String(), encodeMessage, neverEmpty)
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(mgl32.Vec2{}).String(), encodeVec2, neverEmpty)
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(mgl32.Vec3{}).String(), encodeVec3, neverEmpty)

	// Decoders
	jsoniter.RegisterTypeDecoderFunc(reflect.TypeOf(Message{}).String(), decodeMessage)

	return jsoniter.Config{
		IndentionStep:                 0,
		MarshalFloatWith6Digits:       true,
		EscapeHTML:                    false,
		SortMapKeys:                   true,
		UseNumber:                     false,
		DisallowUnknownFields:         false,
		TagKey:                        "json",
		OnlyTaggedField:               false,
		ValidateJsonRawMessage:        false,
		ObjectFieldMustBeSimpleString: true,
		CaseSensitive:                 true,
	}.Froze()
}()

// JSON encodes and decodes Messages for clients outside this package.
var JSON = json

func encodeMessage(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	message := (*Message)(ptr)
	stream.WriteVal(message.messageJSON())
}

// Vertices are the bulk of every mesh, so they are written as short arrays.
func encodeVec2(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	vec := *(*mgl32.Vec2)(ptr)
	stream.WriteArrayStart()
	stream.WriteFloat32Lossy(vec[0])
	stream.WriteMore()
	stream.WriteFloat32Lossy(vec[1])
	stream.WriteArrayEnd()
}

func encodeVec3(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	vec := *(*mgl32.Vec3)(ptr)
	stream.WriteArrayStart()
	stream.WriteFloat32Lossy(vec[0])
	stream.WriteMore()
	stream.WriteFloat32Lossy(vec[1])
	stream.WriteMore()
	stream.WriteFloat32Lossy(vec[2])
	stream.WriteArrayEnd()
}

// Buffers large enough to hold most inbounds
var decodeMessagePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 256)
		return &buf
	},
}

func decodeMessage(ptr unsafe.Pointer, topLevelIter *jsoniter.Iterator) {
	bufPtr := decodeMessagePool.Get().(*[]byte)

	// Read bytes so can read twice
	messageBytes := topLevelIter.SkipAndAppendBytes(*bufPtr)

	// Pool iterator with previous pool
	pool := topLevelIter.Pool()
	iter := pool.BorrowIterator(messageBytes)
	defer pool.ReturnIterator(iter)

	// Interface of *Inbound
	var in interface{}

	// Doesn't have to read twice if type is first field
	// If type is found c is > 0
	for c := 0; c < 3; c++ {
		iter.ResetBytes(messageBytes)
		iter.ReadObjectCB(func(i *jsoniter.Iterator, field string) bool {
			switch field {
			case "type":
				if in != nil {
					i.Skip()
					return true
				}

				messageTypeBytes := i.ReadStringAsSlice()
				inboundType, ok := inboundMessageTypes[messageType(messageTypeBytes)]
				if !ok {
					inboundType = reflect.TypeOf(InvalidInbound{})
				}
				in = reflect.New(inboundType).Interface()

				if !ok {
					in.(*InvalidInbound).messageType = messageType(messageTypeBytes)
				}
				c++
			case "data":
				if c == 0 {
					i.Skip()
					return true
				}
				i.ReadVal(in)
				c++
				return false // Finished
			default:
				i.Skip()
			}
			return true
		})

		if err := iter.Error; err != nil {
			topLevelIter.Error = err
			return
		}

		// No message type
		if c == 0 {
			topLevelIter.Error = errors.New("no inbound message type")
			return
		}
	}

	// Pool messageBytes
	*bufPtr = messageBytes[:0]
	decodeMessagePool.Put(bufPtr)

	// Store data
	message := (*Message)(ptr)
	message.Data = reflect.Indirect(reflect.ValueOf(in)).Interface()
}
