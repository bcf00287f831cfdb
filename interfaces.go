/*
 * interfaces.go, part of goPart.
 *
 * Copyright 2024 The goPart authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package part

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate
// method allows to add and retrieve info from the error, without changing its type or wrapping
// it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call appends the given string (the caller's name, plus any relevant information) to the decoration slice and returns the result. If passed an empty string, it should just return the current value, not add the empty string to the slice.
}

// FileError is the interface for errors raised while reading or writing one of the
// file formats handled by this library.
type FileError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}
