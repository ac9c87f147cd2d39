/*Package interval implements an ordered map from disjoint closed genomic
  ranges to variant records, the container at the center of the overlay
  algorithm.  (Note the 'disjoint'.  Overlapping ranges are never merged or
  tracked; a caller re-covering a region must remove the affected entries
  first.)
  The map is owned by a single writer for its whole lifetime and is not
  safe for concurrent use.
*/
package interval
