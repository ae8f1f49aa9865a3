// Command vaultgrep greps through Ansible vault encrypted files. It walks a
// directory tree for files whose first line carries the $ANSIBLE_VAULT
// signature, decrypts them with the configured vault secrets, and prints
// the files and lines matching a regular expression.
package main
