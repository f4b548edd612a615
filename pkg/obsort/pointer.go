// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package obsort

import (
	"bytes"
)

// SortPointer binds an encoded ordering key to one record slot of the
// working arena. It borrows the slot; the arena owns every record for
// the duration of a sort call. Relocating a row goes through
// Arena.Set, which copies key and record value, never the pointer.
type SortPointer struct {
	_key  []byte
	_slot int
}

func (ptr *SortPointer) Bind(slot int, key []byte) {
	ptr._slot = slot
	ptr._key = key
}

func (ptr *SortPointer) Slot() int {
	return ptr._slot
}

func (ptr *SortPointer) Key() []byte {
	return ptr._key
}

// LessThan compares the encoded keys. The selector's directions and
// null placement are baked into the key bytes, so byte comparison is a
// strict weak ordering for every legal selector.
func (ptr *SortPointer) LessThan(other *SortPointer) bool {
	return bytes.Compare(ptr._key, other._key) < 0
}
