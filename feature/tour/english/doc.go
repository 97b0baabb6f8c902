// Package english matches Korean catalog records to their EngService1
// counterparts and keeps the working lists of the manual mapping picker.
package english
