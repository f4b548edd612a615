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

package common

import "unsafe"

var (
	Int8Size    int
	Int32Size   int
	Int64Size   int
	Float64Size int
	DateSize    int
	DecimalSize int
)

func init() {
	var i int8
	Int8Size = int(unsafe.Sizeof(i))
	Int32Size = Int8Size * 4
	Int64Size = Int8Size * 8
	Float64Size = Int8Size * 8
	DateSize = int(unsafe.Sizeof(Date{}))
	//whole int64 + frac int64
	DecimalSize = 2 * Int64Size
}
