// Package cashbook keeps a personal cashbook: incomes, expenses, and
// fixed-term certificate investments paying monthly interest.
//
// Records live in a Ledger, stored as a JSONL file (FileStore) or in SQLite
// (see the sqlite package). Investments follow a rate schedule with
// step-downs at contract anniversaries, and their monthly income is computed
// on demand:
//   - Periods enumerates the income periods of a term, with their payable
//     dates and rates.
//   - Claimable lists the periods due today or coming due soon.
//   - CurrentMonthlyTotal is the interest earned this month across running
//     certificates.
//   - Committer turns a due period into an Income record and marks it
//     claimed, exactly once, in order.
//
// The cb command line tool is built on top of this package.
package cashbook
