/*
 * doc.go, part of goPart.
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

/*Package part is the main package of the goPart library. It provides the track-set and
mesh structures used to hold particle-tracking model output, facilities for filtering and
comparing per-site data fields, and the point-to-element lookup used when mapping particle
positions onto an unstructured triangular mesh.



	**goPart Capabilities**


    Reads the XML particle files written by hydrodynamic particle-tracking runs
	and turns them into NaN-padded [particles x timesteps] matrices (package xmlpt).

    Reads and writes the compressed track-structure format used to store converted
	runs, meshes and per-site concentration fields (package trackfile).

    Maps particle positions onto an unstructured triangular mesh, including a
	nearest-node fallback for positions that fall between elements.

    Calculates surface and volumetric concentration fields from mapped particle
	tracks, and exposure accumulated along fish tracks (packages conc and exposure).

    Describes fish tracks in terms of river of origin, protection zones traversed
	and destination water body (package tracks).

    Filters, sums and compares per-site field maps, with NaNs treated as equal
	when comparing.

    Summary statistics of concentration and exposure data (package pstat) and
	quick plots of tracks and time series (package partplot).



goPart stores every per-particle variable as a gonum *mat.Dense with one row per particle
and one column per timestep. Ragged data (particles released at different times) is padded
with NaN. Mesh nodes and elements are indexed 0-based within this library, with the 1-based
node numbers of the upstream model files converted on reading. Data that mirrors the
upstream conventions keeps them: the meshIndex variable written by the concentration
mapping and the cell and timestep numbers of exposure legs are 1-based.*/
package part
