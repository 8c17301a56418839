// PTRA: Patient Trajectory Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package app

import "fmt"

// TableNotFoundError reports that the merge table does not exist at the resolved path.
type TableNotFoundError struct {
	Path string
	Err  error
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("merge table not found at '%s'", e.Path)
}

func (e *TableNotFoundError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports that a column needed for the analysis is absent from the table header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column '%s' not found", e.Column)
}
