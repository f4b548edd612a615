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

package util

type GenData struct {
	Buffers int   `toml:"buffers"`
	Rows    int   `toml:"rows"`
	Seed    int64 `toml:"seed"`
}

type InputData struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

type OrderColumn struct {
	Column     string `toml:"column"`
	Desc       bool   `toml:"desc"`
	NullsFirst bool   `toml:"nullsFirst"`
}

type DebugOptions struct {
	PrintResult   bool `toml:"printResult"`
	PrintSchedule bool `toml:"printSchedule"`
	PrintTrace    bool `toml:"printTrace"`
	Verify        bool `toml:"verify"`
}

type Config struct {
	Gen   GenData       `toml:"gen"`
	Input InputData     `toml:"input"`
	Order []OrderColumn `toml:"order"`
	Debug DebugOptions  `toml:"debug"`
}
